package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
)

// Debugger is an interactive terminal REPL over a System, the
// supervisor-console counterpart to the teacher's BIOS() command loop,
// now operating on the unified bus instead of three half-built memory
// views.
type Debugger struct {
	sys *System
}

// NewDebugger wraps sys for interactive inspection.
func NewDebugger(sys *System) *Debugger {
	return &Debugger{sys: sys}
}

// Run starts the REPL. It blocks until the operator chooses (Q)uit.
func (d *Debugger) Run(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})
	cpu := d.sys.CPU

	for {
		fmt.Printf("%s\n\n", cpu)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to a breakpoint or quit signal")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - select a memory range to display")
		fmt.Println("S(t)ack - show last 3 items on the stack")
		fmt.Println("(I)nstruction - show instruction memory locations")
		fmt.Println("(P)C - set program counter")
		fmt.Println("(Q)uit - shutdown the debugger")
		fmt.Printf("Choice: ")

		var in rune
		if _, err := fmt.Scanf("%c\n", &in); err != nil {
			return
		}

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func() {
				select {
				case <-sigQuit:
					cancel()
				case <-cctx.Done():
				}
			}()
			d.runToBreak(cctx, breaks)
			cancel()
		case 's', 'S':
			cpu.Step()
		case 't', 'T':
			fmt.Println()
			for i := 1; i <= 3; i++ {
				m := cpu.StackAddr() + uint16(i)
				fmt.Printf("0x%04x: 0x%02x ", m, cpu.Read(m))
				if m == 0x01ff {
					break
				}
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			fmt.Println()
			fmt.Printf("%s\n\n", cpu.Inst())
		case 'e', 'E':
			d.sys.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			for i := low; ; i++ {
				fmt.Printf("0x%04x: 0x%02x ", i, cpu.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
			}
			fmt.Printf("\n\n")
		}
	}
}

// runToBreak single-steps the CPU until ctx is cancelled or PC lands
// on a breakpoint address.
func (d *Debugger) runToBreak(ctx context.Context, breaks map[uint16]struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.sys.CPU.Step()
		if _, hit := breaks[d.sys.CPU.PC()]; hit {
			return
		}
	}
}

// readAddress prompts for and parses a 4-hex-digit address.
func readAddress(prompt string) uint16 {
	fmt.Print(prompt)
	var addr uint16
	fmt.Scanf("%x\n", &addr)
	return addr
}
