package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/tally/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the global flags and of every
// command registered in c.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		f := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(f)
		root.Sub[sc.Name()] = &complete.Command{Flags: flags(f)}
	})

	if sub, ok := root.Sub["add"]; ok {
		sub.Args = predict.Set{"income", "expense", "transfer"}
	}
	if sub, ok := root.Sub["topic"]; ok {
		if topics, err := docs.GetAllTopics(); err == nil {
			sub.Args = predict.Set(topics)
		}
	}
	return root
}

func flags(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		m[fl.Name] = predictor(fl)
	})
	return m
}

func predictor(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch {
	case fl.Name == "db":
		return predict.Files("*.sqlite")
	case fl.Name == "m" && strings.HasPrefix(fl.Usage, "Month"):
		return predict.Set{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	}
	return predict.Something
}
