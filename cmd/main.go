package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/forest-guardian/cloudcover/internal/log"
	"github.com/forest-guardian/cloudcover/internal/notification"
)

func printBanner() {
	figure1 := figure.NewFigure("Cloud", "isometric1", true)
	figure2 := figure.NewFigure("Cover", "isometric1", true)
	color.Cyan(figure1.String())
	color.Cyan(figure2.String())
	fmt.Println()
}

func recoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	pc, file, line, ok := runtime.Caller(3)
	location := "Unknown location"
	if ok {
		location = fmt.Sprintf("%s:%d in %s", file, line, runtime.FuncForPC(pc).Name())
	}

	color.Red("\nPANIC: %v", r)
	color.Red("Location: %s", location)
	color.Red("Please check the input and try again.")

	errMessage := fmt.Sprintf("Cloudcover panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, debug.Stack())
	if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
		color.Red("Failed to send notification: %s", err.Error())
	}
	log.Sync()
	os.Exit(2)
}

func main() {
	defer recoverPanic()

	if err := newRootCmd().Execute(); err != nil {
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
