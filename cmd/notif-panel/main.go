package main

import "github.com/oshokin/notif-panel/cmd/notif-panel/cmd"

func main() {
	cmd.Execute()
}
