package main

import "github.com/pvekit/scriptport/cmd/scriptport"

func main() {
	scriptport.Execute()
}
