package main

import "github.com/NVIDIA/xgbjob-client/pkg/cli"

func main() {
	cli.Execute()
}
