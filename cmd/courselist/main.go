package main

import "github.com/openswoop/courselist/cmd"

func main() {
	cmd.Execute()
}
