// vtcon - renders a text stream onto every available display output.
package main

import (
	"context"
	"fmt"
	"os"

	"vtcon/cmd"
	ncerr "vtcon/internal/errors"
)

func main() {
	if err := cmd.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "vtcon: %v\n", err)
		os.Exit(ncerr.ExitCode(err))
	}
}
