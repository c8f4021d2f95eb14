package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/notzhong/YOLOLabelsTool/pkg/bundle"
	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
)

// planFlags are the flags shared by every command that works on a project tree.
type planFlags struct {
	Descriptor string
	Root       string
}

func (f *planFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.Descriptor, "descriptor", "d", "",
		"Read the packaging descriptor from `FILENAME` (default: "+descriptor.DefaultFilename+
			" in the project root if it exists, otherwise built-in defaults)")
	flags.StringVar(&f.Root, "root", ".", "The project root `DIRECTORY`")
}

func (f *planFlags) plan(ctx context.Context) (*bundle.Plan, error) {
	desc, err := descriptor.Find(f.Root, f.Descriptor)
	if err != nil {
		return nil, err
	}
	return bundle.NewPlan(ctx, f.Root, desc)
}

// layerOwner is who owns the files in the layers that we create.
var layerOwner = &fsutil.Ownership{
	UName: "root",
	GName: "root",
}

// outputFlag registers the conventional -o flag; "-" (the default) means stdout.
func outputFlag(flags *pflag.FlagSet, p *string, what string) {
	flags.StringVarP(p, "output", "o", "-", "Write the "+what+" to `FILENAME` instead of stdout")
}

func isStdout(filename string) bool {
	return filename == "" || filename == "-"
}
