// Command fizzbuzz prints the fizzbuzz answer for numbers, lists of
// numbers and ranges given on the command line or as JSON.
//
//	fizzbuzz 15                    # fizzbuzz
//	fizzbuzz 1 2 3 4 5             # 1, 2, fizz, 4, buzz
//	fizzbuzz --range 15:0:-3       # fizzbuzz, fizz, fizz, fizz, fizz
//	fizzbuzz --json '{"start": 1, "stop": 16}'
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for input the program cannot interpret and 1 for any
// other failure.
func exitCode(err error) int {
	if errors.Is(err, core.ErrTypeMismatch) || errors.Is(err, core.ErrInvalidArgument) {
		return 2
	}
	return 1
}
