package main

import "github.com/avillegas/care-assistant/cmd/care-reminders/cmd"

func main() {
	cmd.Execute()
}
