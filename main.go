package main

import "github.com/frahmantamala/courier-payroll/cmd"

func main() {
	cmd.Execute()
}
