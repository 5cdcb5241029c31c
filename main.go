package main

import "github.com/RyanBlaney/dance-advisor/cmd"

func main() {
	cmd.Execute()
}
