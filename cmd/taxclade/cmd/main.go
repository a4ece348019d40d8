// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/taxclade/clade"
	"github.com/grailbio/taxclade/dedup"
	"v.io/x/lib/cmdline"
)

func newCmdCount() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "count",
		Short: "Count direct and clade assignments and hits per sample",
		Long: `
Count reads each classifier output file and writes
<outdir>/<sample>.cladecounts.tsv.gz with the columns taxid, direct
assignments, direct hits, clade assignments, clade hits.

A sample argument is either a path, or "path,duplicates" where duplicates is
the output of "taxclade dedup" for the same sample. Duplicate reads are not
counted.`,
		ArgsName: "outdir sample...",
	}
	opts := countOpts{}
	cmd.Flags.StringVar(&opts.nodes, "nodes", "", "NCBI taxonomy nodes.dmp")
	cmd.Flags.IntVar(&opts.parallelism, "parallelism", clade.DefaultOpts.Parallelism, "Number of samples counted at once")
	cmd.Flags.StringVar(&opts.restrict, "restrict", "", "If set, a taxid<TAB>name list; only reads assigned to these taxa are counted")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 2 {
			return fmt.Errorf("count takes outdir and at least one sample, but got %v", argv)
		}
		return count(vcontext.Background(), opts, argv[0], argv[1:])
	})
	return cmd
}

func newCmdCountDirect() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "count-direct",
		Short:    "Count direct assignments and hits, without the taxonomy",
		ArgsName: "classifier-output out",
	}
	duplicates := cmd.Flags.String("duplicates", "", "Output of \"taxclade dedup\" for this sample")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("count-direct takes classifier-output and out, but got %v", argv)
		}
		return countDirect(vcontext.Background(), argv[0], *duplicates, argv[1])
	})
	return cmd
}

func newCmdCountDown() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "count-down",
		Short: "Compute clade counts from direct counts",
		Long: `
Count-down reads the output of "taxclade count-direct" and sums the direct
counts below each taxon. By default clade counts are written for every taxon
that has a direct count or is an ancestor of one.`,
		ArgsName: "direct-counts out",
	}
	nodes := cmd.Flags.String("nodes", "", "NCBI taxonomy nodes.dmp")
	targets := cmd.Flags.String("targets", "", "If set, a file of taxids, one per line; clade counts are only written for these")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("count-down takes direct-counts and out, but got %v", argv)
		}
		return countDown(vcontext.Background(), *nodes, *targets, argv[0], argv[1])
	})
	return cmd
}

func newCmdDedup() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "dedup",
		Short: "Find duplicate reads of one sample",
		Long: `
Dedup groups the reads of a collapsed FASTQ, or of an R1/R2 FASTQ pair, by
their trimmed start and end sequences, irrespective of strand. The read with
the smallest ID of each group is kept; the others are written to out as
"read_id<TAB>representative_id". If -unique is set, the reads that are not
duplicates are also written as FASTQ, one output per input.`,
		ArgsName: "out fastq [fastq-r2]",
	}
	opts := dedupOpts{Opts: dedup.DefaultOpts}
	cmd.Flags.IntVar(&opts.K, "k", dedup.DefaultOpts.K, "Number of bases trimmed from each end before comparing reads")
	cmd.Flags.StringVar(&opts.metrics, "metrics", "", "If set, path of a duplication metrics TSV")
	cmd.Flags.StringVar(&opts.unique, "unique", "", "If set, comma-separated FASTQ paths, one per input, receiving the non-duplicate reads")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 && len(argv) != 3 {
			return fmt.Errorf("dedup takes out and one or two fastq paths, but got %v", argv)
		}
		return runDedup(vcontext.Background(), opts, argv[0], argv[1:])
	})
	return cmd
}

func newCmdTree() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "tree",
		Short: "Build the display tree of a taxon list",
		Long: `
Tree nests the taxa of a taxid<TAB>name list and all their ancestors into a
JSON tree, [taxid, child, child, ...]. Only the topmost taxa of the list,
plus those named by -observed, seed the tree. If -names is set, the names of
all taxa in the tree are written to names-out.`,
		ArgsName: "seeds tree-out [names-out]",
	}
	opts := treeOpts{}
	cmd.Flags.StringVar(&opts.nodes, "nodes", "", "NCBI taxonomy nodes.dmp")
	cmd.Flags.StringVar(&opts.names, "names", "", "NCBI taxonomy names.dmp")
	cmd.Flags.StringVar(&opts.observed, "observed", "", "If set, a file of taxids, one per line, seen in samples")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 && len(argv) != 3 {
			return fmt.Errorf("tree takes seeds, tree-out and optionally names-out, but got %v", argv)
		}
		if len(argv) == 3 {
			opts.namesOut = argv[2]
		}
		return buildTree(vcontext.Background(), opts, argv[0], argv[1])
	})
	return cmd
}

func newCmdKeyClades() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "key-clades",
		Short:    "List the taxa always reported for comparison",
		ArgsName: "out",
	}
	nodes := cmd.Flags.String("nodes", "", "NCBI taxonomy nodes.dmp")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("key-clades takes out, but got %v", argv)
		}
		return keyClades(vcontext.Background(), *nodes, argv[0])
	})
	return cmd
}

func newCmdComparisonSpecies() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "comparison-species",
		Short: "Pick the most abundant taxa across samples",
		Long: `
Comparison-species sums direct assignments over the given count-direct
outputs and writes "count<TAB>taxid" for the top taxa overall and the top
viral taxa, largest first.`,
		ArgsName: "out direct-counts...",
	}
	nodes := cmd.Flags.String("nodes", "", "NCBI taxonomy nodes.dmp")
	n := cmd.Flags.Int("n", 10, "Number of taxa picked overall, and again among viruses")
	minCount := cmd.Flags.Int64("min-count", 30, "Taxa with this many direct assignments or fewer are dropped")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 2 {
			return fmt.Errorf("comparison-species takes out and at least one input, but got %v", argv)
		}
		return comparisonSpecies(vcontext.Background(), *nodes, *n, *minCount, argv[0], argv[1:])
	})
	return cmd
}

func newCmdExpandClades() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "expand-clades",
		Short:    "Expand a taxon list to include all descendants",
		ArgsName: "seeds out",
	}
	nodes := cmd.Flags.String("nodes", "", "NCBI taxonomy nodes.dmp")
	names := cmd.Flags.String("names", "", "NCBI taxonomy names.dmp")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("expand-clades takes seeds and out, but got %v", argv)
		}
		return expandClades(vcontext.Background(), *nodes, *names, argv[0], argv[1])
	})
	return cmd
}

func newCmdCategories() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "categories",
		Short:    "Report reads per top-level taxonomic category",
		ArgsName: "clade-counts out",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("categories takes clade-counts and out, but got %v", argv)
		}
		return categories(vcontext.Background(), argv[0], argv[1])
	})
	return cmd
}

func newCmdCompare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "compare",
		Short: "Collect clade assignments of selected taxa across samples",
		Long: `
Compare writes a JSON object mapping each sample to the clade assignments of
the taxa listed in -targets. Samples are "name=clade-counts" pairs, or bare
paths, in which case the name is derived from the file name.`,
		ArgsName: "out sample...",
	}
	targets := cmd.Flags.String("targets", "", "Comma-separated files of taxids, one per line")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 2 {
			return fmt.Errorf("compare takes out and at least one sample, but got %v", argv)
		}
		if *targets == "" {
			return fmt.Errorf("compare: -targets must be set")
		}
		return compare(vcontext.Background(), strings.Split(*targets, ","), argv[0], argv[1:])
	})
	return cmd
}

func newCmdBucket() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bucket",
		Short:    "Sort taxa under Bacteria or Viruses",
		ArgsName: "taxids out",
	}
	nodes := cmd.Flags.String("nodes", "", "NCBI taxonomy nodes.dmp")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("bucket takes taxids and out, but got %v", argv)
		}
		return bucket(vcontext.Background(), *nodes, argv[0], argv[1])
	})
	return cmd
}

func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "taxclade",
			Short:    "Tools for counting classified reads against the NCBI taxonomy",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdCount(),
				newCmdCountDirect(),
				newCmdCountDown(),
				newCmdDedup(),
				newCmdTree(),
				newCmdKeyClades(),
				newCmdComparisonSpecies(),
				newCmdExpandClades(),
				newCmdCategories(),
				newCmdCompare(),
				newCmdBucket(),
			},
		})
}
