package main

import "ascend/cmd/ascend/root"

func main() {
	root.Execute()
}
