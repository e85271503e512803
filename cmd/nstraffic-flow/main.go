package main

import (
	"bytes"
	"fmt"
	"os"

	"nstraffic/internal/flowapp"
)

func main() {
	var out, errBuf bytes.Buffer
	code := flowapp.Run(os.Args[1:], &out, &errBuf)

	if out.Len() > 0 {
		fmt.Print(out.String())
	}
	if errBuf.Len() > 0 {
		fmt.Fprint(os.Stderr, errBuf.String())
	}
	os.Exit(code)
}
