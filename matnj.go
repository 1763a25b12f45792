/*
matnj is a toolbox for phylip-style pairwise distance matrices. Its core
command builds a phylogenetic tree via neighbor joining and annotates every
internal branch with a quartet-based support value.

usage: matnj <command> [flags] [FILE...]

commands:

	nj		build a tree via neighbor joining
	compare		compute the distance between two matrices
	mantel		compare matrices using the Mantel test
	format		reformat, fix, or validate a distance matrix
	grep		print the submatrix for names matching a pattern

Every command reads one matrix per given file, or from stdin when no file
(or "-") is given.

examples:

	matnj nj --sample-size 1000 distances.mat > tree.nwk
	matnj grep '^Escherichia' distances.mat | matnj nj --no-support
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"

	"github.com/jsdoublel/matnj/internal/dist"
	"github.com/jsdoublel/matnj/internal/nj"
	"github.com/jsdoublel/matnj/internal/stats"
	"github.com/jsdoublel/matnj/internal/support"
)

const (
	Version    = "v0.3.0"
	ErrMessage = "matnj incountered an error ::"
)

var commands = map[string]func(args []string) error{
	"nj":      runNJ,
	"compare": runCompare,
	"mantel":  runMantel,
	"format":  runFormat,
	"grep":    runGrep,
}

func usage() {
	fmt.Fprint(os.Stderr,
		"usage: matnj [ -h | -v ] <command> [flags] [FILE...]\n",
		"\n",
		"commands:\n\n",
		"  nj\t\tbuild a tree via neighbor joining\n",
		"  compare\tcompute the distance between two matrices\n",
		"  mantel\tcompare matrices using the Mantel test\n",
		"  format\treformat, fix, or validate a distance matrix\n",
		"  grep\t\tprint the submatrix for names matching a pattern\n",
		"\n",
		"Use 'matnj <command> -h' for the flags of a command.\n",
	)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "-h", "--help":
		usage()
		os.Exit(0)
	case "-v", "--version":
		fmt.Printf("matnj version %s\n", Version)
		os.Exit(0)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "%q is not a valid command\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err := run(os.Args[2:]); err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
}

func setNProcs(nprocs int) int {
	maxProcs := runtime.GOMAXPROCS(0)
	switch {
	case nprocs > maxProcs:
		log.Printf("%d is greater than available processes (%d); limit set to %d\n", nprocs, maxProcs, maxProcs)
		return maxProcs
	case nprocs <= 0:
		return maxProcs
	default:
		return nprocs
	}
}

func runNJ(args []string) error {
	flags := flag.NewFlagSet("nj", flag.ExitOnError)
	noSupport := flags.Bool("no-support", false, "do not compute support values")
	sampleSize := flags.Int("sample-size", 0, "quartets to sample per branch; 0 examines all of them")
	seed := flags.Uint64("seed", 0, "sampling seed; 0 picks one from entropy")
	nprocs := flags.Int("n", 0, "number of parallel processes")
	plotPrefix := flags.String("plot", "", "write a support histogram to `prefix`.png")
	if err := flags.Parse(args); err != nil {
		return err
	}
	matrices, err := dist.ParseFiles(flags.Args())
	if err != nil {
		return err
	}
	for i, m := range matrices {
		if m.Size() < 4 {
			return fmt.Errorf("expected at least four species, got %d", m.Size())
		}
		tre := nj.Build(m)
		if !*noSupport {
			opts := support.Options{
				SampleSize: *sampleSize,
				Seed:       *seed,
				NProcs:     setNProcs(*nprocs),
			}
			if err := support.Annotate(tre, m, opts); err != nil {
				return err
			}
			if *plotPrefix != "" {
				prefix := *plotPrefix
				if len(matrices) > 1 {
					prefix = fmt.Sprintf("%s-%d", prefix, i+1)
				}
				if err := support.WriteSupportHistogram(tre, prefix); err != nil {
					return err
				}
			}
		}
		fmt.Println(tre.Newick(m.Names()))
	}
	return nil
}

func runCompare(args []string) error {
	flags := flag.NewFlagSet("compare", flag.ExitOnError)
	full := flags.Bool("f", false, "output a full matrix of pairwise norms")
	if err := flags.Parse(args); err != nil {
		return err
	}
	matrices, err := dist.ParseFiles(flags.Args())
	if err != nil {
		return err
	}
	if len(matrices) < 2 {
		return fmt.Errorf("at least two matrices must be provided")
	}
	if !*full {
		rel, err := stats.Rel(matrices[0], matrices[1])
		if err != nil {
			return err
		}
		fmt.Println(rel)
		return nil
	}
	cmp, err := stats.FullMatrix(matrices, stats.P2Norm)
	if err != nil {
		return err
	}
	fmt.Print(cmp)
	return nil
}

func runMantel(args []string) error {
	flags := flag.NewFlagSet("mantel", flag.ExitOnError)
	full := flags.Bool("f", false, "output a full matrix of pairwise p-values")
	normalize := flags.Bool("n", false, "normalize matrices before comparison")
	runs := flags.Int("runs", stats.DefaultMantelRuns, "number of Monte-Carlo permutations")
	seed := flags.Uint64("seed", 0, "permutation seed; 0 picks one from entropy")
	if err := flags.Parse(args); err != nil {
		return err
	}
	matrices, err := dist.ParseFiles(flags.Args())
	if err != nil {
		return err
	}
	if len(matrices) < 2 {
		return fmt.Errorf("at least two matrices must be provided")
	}
	if !*full {
		p, err := stats.Mantel(matrices[0], matrices[1], *normalize, *runs, *seed)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	}
	cmp, err := stats.FullMatrix(matrices, func(a, b *dist.Matrix) (float64, error) {
		return stats.Mantel(a, b, *normalize, *runs, *seed)
	})
	if err != nil {
		return err
	}
	fmt.Print(cmp)
	return nil
}

// valid printf specifiers for a single float64 cell
var validSpecifier = regexp.MustCompile(`^%[#0 +\-]*[0-9]*(\.[0-9]*)?[eEfFgG]$`)

func runFormat(args []string) error {
	flags := flag.NewFlagSet("format", flag.ExitOnError)
	fix := flags.Bool("fix", false, "fix small errors")
	validate := flags.Bool("validate", false, "validate for correctness (implies -fix)")
	sort := flags.Bool("sort", false, "sort by name")
	truncate := flags.Bool("truncate-names", false, "truncate names to ten characters")
	separator := flags.String("separator", " ", "cell separator")
	specifier := flags.String("format", "%9.3e", "printf-style cell format")
	precision := flags.Float64("precision", dist.DefaultPrecision, "relative tolerance used in comparisons")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if !validSpecifier.MatchString(*specifier) {
		return fmt.Errorf("invalid format specifier: %s", *specifier)
	}
	sep := unescape(*separator)
	matrices, err := dist.ParseFiles(flags.Args())
	if err != nil {
		return err
	}
	for _, m := range matrices {
		if *fix || *validate {
			m = dist.Fix(m, *precision)
		}
		if *validate {
			if err := dist.Validate(m, *truncate, *precision); err != nil {
				return err
			}
		}
		if *sort {
			m = dist.Sort(m)
		}
		fmt.Print(dist.Format(m, sep, *specifier, *truncate))
	}
	return nil
}

// Turns a c-style escape sequence like \t into its character.
func unescape(s string) byte {
	if len(s) < 2 || s[0] != '\\' {
		if s == "" {
			return ' '
		}
		return s[0]
	}
	switch s[1] {
	case '\'', '"', '\\':
		return s[1]
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'v':
		return '\v'
	case 'f':
		return '\f'
	default:
		return '?'
	}
}

func runGrep(args []string) error {
	flags := flag.NewFlagSet("grep", flag.ExitOnError)
	invert := flags.Bool("v", false, "select non-matching names")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("missing pattern")
	}
	pattern, err := regexp.Compile(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	matrices, err := dist.ParseFiles(flags.Args()[1:])
	if err != nil {
		return err
	}
	for _, m := range matrices {
		fmt.Print(dist.Grep(m, pattern, *invert))
	}
	return nil
}
