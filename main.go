package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/aryanA101a/m6502-vm-go/logger"
	"github.com/aryanA101a/m6502-vm-go/statsview"
	"github.com/aryanA101a/m6502-vm-go/vm"
)

const usage = "m6502 [-bios file] [-timer period] [-log] [-memviz file] [-statsview addr]"

var (
	biosvar      string
	timervar     time.Duration
	logvar       bool
	memvizvar    string
	statsviewvar string
	helpvar      bool
)

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.StringVar(&biosvar, "bios", vm.DefaultBootImage, "Boot image loaded into ROM at $1000")
	flag.DurationVar(&timervar, "timer", vm.DefaultTimerPeriod, "Host time between timer steps")
	flag.BoolVar(&logvar, "log", false, "Echo the machine log to stderr")
	flag.StringVar(&memvizvar, "memviz", "", "Write a graphviz description of the memory layout to file and exit")
	flag.StringVar(&statsviewvar, "statsview", "", "Serve runtime statistics on address, eg. "+statsview.DefaultAddress+" (statsview builds only)")
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
}

func m6502() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if flag.NArg() != 0 {
		log.Println(usage)
		return 2
	}

	l := logger.New(0)
	if logvar {
		l.SetEcho(log.Default())
	}

	console := vm.NewTerminal(os.Stdin, os.Stdout, l)

	machine, err := vm.NewVM(vm.Config{
		BootImage:   biosvar,
		Console:     console,
		TimerPeriod: timervar,
		Log:         l,
	})
	if err != nil {
		log.Println(err)
		return 1
	}

	if memvizvar != "" {
		f, err := os.Create(memvizvar)
		if err != nil {
			log.Println(err)
			return 1
		}
		defer f.Close()
		memviz.Map(f, machine.Layout())
		return 0
	}

	if statsviewvar != "" {
		if statsview.Available() {
			statsview.Launch(os.Stderr, statsviewvar)
		} else {
			log.Println("statsview not available in this build")
		}
	}

	if err := console.Start(); err != nil {
		log.Println(err)
		return 1
	}
	defer console.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := machine.Run(ctx); err != nil {
		log.Println(err)
		if !logvar {
			l.Tail(os.Stderr, 10)
		}
		return 1
	}

	return 0
}

func main() {
	os.Exit(m6502())
}
