// proclist lists running processes and the executables they were started from.
package main

import (
	"os"

	"github.com/jongio/proclist/cli"
)

func main() {
	os.Exit(cli.Execute())
}
