package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fedorabatch/cmd/dsedit/commands"
)

func main() {
	// Ctrl-C 取消正在进行的请求，运行在当前对象处中止
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}
