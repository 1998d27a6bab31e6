package main

import (
	"os"

	"github.com/TheCacophonyProject/esp-boot-mode/internal/bootmode"
)

var version = "<not set>"

func main() {
	err := bootmode.Run(os.Args[1:], version)
	if err != nil {
		bootmode.Logger().Fatal(err)
	}
}
