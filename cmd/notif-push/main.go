package main

import "github.com/oshokin/notif-panel/cmd/notif-push/cmd"

func main() {
	cmd.Execute()
}
