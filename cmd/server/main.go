package main

import "restaurant_manager/internal/cmd"

func main() {
	cmd.Execute()
}
