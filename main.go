package main

import "github.com/theodorechapman/opendisaster-sub000/cmd"

func main() {
	cmd.Execute()
}
