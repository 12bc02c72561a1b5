package gui

import (
	"context"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pentamind/internal/commands"
	"pentamind/internal/logger"
	"pentamind/internal/plugins/opener"
)

// Invoker is the bridge the view uses to reach native commands.
type Invoker interface {
	Invoke(ctx context.Context, name string, args commands.Args) (any, error)
}

// GreetView is the main window's content: a name field, a greet button
// and the greeting returned by the greet command.
type GreetView struct {
	invoker Invoker
	logger  logger.Logger

	NameEntry   *widget.Entry
	GreetButton *widget.Button
	Result      *widget.Label
	Homepage    *widget.Hyperlink

	content fyne.CanvasObject
}

func NewGreetView(invoker Invoker, productName, homepage string, log logger.Logger) *GreetView {
	v := &GreetView{
		invoker: invoker,
		logger:  log,
		Result:  widget.NewLabel(""),
	}

	v.NameEntry = widget.NewEntry()
	v.NameEntry.SetPlaceHolder("Enter a name...")
	v.NameEntry.OnSubmitted = func(string) { v.submit() }

	v.GreetButton = widget.NewButton("Greet", v.submit)
	v.GreetButton.Importance = widget.HighImportance

	header := widget.NewLabelWithStyle(fmt.Sprintf("Welcome to %s", productName),
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	objects := []fyne.CanvasObject{
		header,
		container.NewBorder(nil, nil, nil, v.GreetButton, v.NameEntry),
		v.Result,
	}

	if homepage != "" {
		link, err := url.Parse(homepage)
		if err == nil {
			v.Homepage = widget.NewHyperlink(homepage, link)
			v.Homepage.OnTapped = func() { v.openLink(homepage) }
			objects = append(objects, container.NewCenter(v.Homepage))
		}
	}

	v.content = container.NewPadded(container.NewVBox(objects...))
	return v
}

func (v *GreetView) Content() fyne.CanvasObject {
	return v.content
}

func (v *GreetView) submit() {
	result, err := v.invoker.Invoke(context.Background(), commands.GreetCommand, commands.Args{
		"name": v.NameEntry.Text,
	})
	if err != nil {
		v.logger.Error("GreetView", err, map[string]interface{}{"command": commands.GreetCommand})
		v.Result.SetText("Error: " + err.Error())
		return
	}
	v.Result.SetText(fmt.Sprint(result))
}

func (v *GreetView) openLink(raw string) {
	_, err := v.invoker.Invoke(context.Background(), opener.OpenURLCommand, commands.Args{"url": raw})
	if err != nil {
		v.logger.Error("GreetView", err, map[string]interface{}{"url": raw})
	}
}
