package main

import "github.com/MeKo-Tech/terrainnoise/internal/cmd"

func main() {
	cmd.Execute()
}
