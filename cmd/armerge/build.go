package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/meigma/ar"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [inputs...]",
		Short: "Assemble a static archive from object files and archives",
		Long: `Assemble a static archive. Inputs ending in .a, .lib, or .rlib are
treated as archives whose members are appended; everything else is
added as a single object file. A build can also be described in a YAML
plan file passed with --plan, in which case flags and arguments are
ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath, _ := cmd.Flags().GetString("plan")

			var plan *Plan
			var err error
			if planPath != "" {
				plan, err = loadPlan(planPath)
			} else {
				output, _ := cmd.Flags().GetString("output")
				kind, _ := cmd.Flags().GetString("kind")
				triple, _ := cmd.Flags().GetString("triple")
				arch, _ := cmd.Flags().GetString("arch")
				skip, _ := cmd.Flags().GetStringArray("skip")
				plan, err = planFromFlags(output, kind, triple, arch, skip, args)
			}
			if err != nil {
				return err
			}
			return runBuild(cmd, plan)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output archive path")
	cmd.Flags().String("kind", "gnu", "Archive kind: gnu, bsd, darwin, coff, or aix_big")
	cmd.Flags().String("triple", "", "Target triple, e.g. x86_64-unknown-linux-gnu")
	cmd.Flags().String("arch", "", "Target architecture")
	cmd.Flags().StringArray("skip", nil, "Glob of member names to omit (repeatable)")
	cmd.Flags().String("plan", "", "Build plan file (YAML)")
	return cmd
}

func runBuild(cmd *cobra.Command, plan *Plan) error {
	target := ar.Target{Triple: plan.Triple, Arch: plan.Arch, Format: plan.Kind}
	b := ar.NewBuilder(target, builderOptions(cmd)...)
	for _, in := range plan.Inputs {
		switch {
		case in.File != "":
			b.AddFile(in.File)
		case in.Archive != "":
			if err := b.AddArchive(in.Archive, skipFunc(in.Skip)); err != nil {
				return err
			}
		}
	}
	if !b.Build(plan.Output) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: archive has no members")
	}
	return nil
}

// skipFunc compiles member name globs into a SkipFunc, nil when there
// are none.
func skipFunc(globs []string) ar.SkipFunc {
	if len(globs) == 0 {
		return nil
	}
	return func(name string) bool {
		for _, g := range globs {
			if ok, _ := path.Match(g, name); ok {
				return true
			}
		}
		return false
	}
}
