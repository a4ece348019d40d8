// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// taxclade counts classifier output against the NCBI taxonomy.
//
// Run "taxclade help" for the list of subcommands.
package main

import (
	"github.com/grailbio/base/grail"
	"github.com/grailbio/taxclade/cmd/taxclade/cmd"
)

func main() {
	shutdown := grail.Init()
	defer shutdown()
	cmd.Run()
}
