package cli

import (
	"fmt"
	"os"

	"simplejvm/classfile"
	"simplejvm/interpreter"
	"simplejvm/runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	debug      bool
	traceFlag  string
	showStats  bool
	logVerbose bool
)

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every instruction as it executes")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enhanced frame debugging (locals, stack)")
	rootCmd.Flags().StringVar(&traceFlag, "trace", "", "trace calls/returns for a method (e.g. --trace fibonacci)")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "show heap statistics after execution")
	rootCmd.Flags().BoolVar(&logVerbose, "log", false, "emit structured runtime logs (GC cycles, scheduler events)")

	rootCmd.Args = cobra.ExactArgs(1)
	rootCmd.Use = "simplejvm <classfile>"
	rootCmd.Example = `  simplejvm HelloWorld.class
  simplejvm -v HelloWorld.class
  simplejvm --debug Fib6.class
  simplejvm --trace fibonacci Calculator.class
  simplejvm --stats ArrayTest.class`
	rootCmd.RunE = runClassFile
}

func runClassFile(cmd *cobra.Command, args []string) error {
	if logVerbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer zl.Sync()
		runtime.SetLogger(zl)
	}

	classFile := args[0]

	cf, err := classfile.ParseFile(classFile)
	if err != nil {
		return fmt.Errorf("loading class file: %w", err)
	}

	fmt.Printf("Loaded class: %s (Java %d)\n", cf.ClassName(), cf.MajorVersion-44)
	fmt.Println("---")

	jvm := runtime.NewJVM()
	defer jvm.Shutdown()

	interp := interpreter.NewInterpreterWithJVM(verbose, jvm)

	if debug {
		interp.SetDebug(true)
		fmt.Println("Debug mode enabled - showing frame state")
		fmt.Println("---")
	}

	if traceFlag != "" {
		interp.SetTrace(traceFlag)
		fmt.Printf("Tracing method: %s\n", traceFlag)
		fmt.Println("---")
	}

	if err := interp.Execute(cf); err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("---")
	fmt.Println("Execution completed.")

	if showStats {
		stats := jvm.GetHeap().Stats()
		fmt.Println("---")
		fmt.Println("Heap Statistics:")
		fmt.Printf("  Allocations:  %d\n", stats.AllocCount)
		fmt.Printf("  Freed:        %d\n", stats.FreeCount)
		fmt.Printf("  Live Objects: %d\n", stats.LiveObjects)
		fmt.Printf("  Heap Size:    %d bytes\n", stats.TotalBytes)
		fmt.Printf("  GC Runs:      %d\n", stats.GCRuns)
	}

	return nil
}
