package main

import "foodgram/cmd"

func main() {
	cmd.Execute()
}
