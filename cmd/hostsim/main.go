// Command hostsim runs the kernel's host-side simulation build: the same
// Go code that targets bare-metal RISC-V under tinygo, driven here by a
// real terminal through kernel/console.TTYSink instead of UART0. A
// standalone binary since this kernel's main() is not itself the boot
// code; kernel.Boot does that.
package main

import (
	"fmt"
	"os"

	"rvkernel/kernel"
	"rvkernel/kernel/console"
)

func main() {
	sink, err := console.NewTTYSink()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hostsim: open terminal: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()
	console.Install(sink)

	k := kernel.Boot()

	k.Scheduler.Spawn("worker", 10, func() {
		console.Printf("worker task running\n")
	})

	k.Scheduler.RunUntilIdle(64)
	console.Printf("hostsim: scheduler idle, exiting\n")
}
