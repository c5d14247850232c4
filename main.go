package main

import "github.com/lgangitano/strava-gear/cmd"

func main() {
	cmd.Execute()
}
