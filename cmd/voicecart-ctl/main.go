package main

import (
	"fmt"
	"os"

	"voicecart/internal/ipc"
)

func main() {
	cmd := "status"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	reply, err := ipc.SendCommand(cmd)
	if err != nil {
		fmt.Println("voicecart not running:", err)
		os.Exit(1)
	}
	fmt.Println(reply.Info)
	if !reply.Ok {
		os.Exit(1)
	}
}
