package main

import "github.com/avillegas/care-assistant/cmd/care-assistant/cmd"

func main() {
	cmd.Execute()
}
