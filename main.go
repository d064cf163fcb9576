package main

import "github.com/whyrusleeping/pitchstaff/cmd"

func main() {
	cmd.Execute()
}
