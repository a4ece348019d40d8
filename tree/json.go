// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tree

import (
	"encoding/json"
	"io"

	"github.com/grailbio/taxclade/taxonomy"
)

// WriteJSON writes the tree as a single line of JSON.
func WriteJSON(w io.Writer, n *Node) error {
	b, err := n.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// NamesJSON returns the names of each taxon in taxids that has any, keyed
// by taxid, scientific name first.
func NamesJSON(names taxonomy.Names, taxids taxonomy.Set) map[int][]string {
	out := make(map[int][]string, len(taxids))
	for taxid := range taxids {
		if n := names[taxid]; len(n) > 0 {
			out[taxid] = n
		}
	}
	return out
}

// WriteNamesJSON writes NamesJSON as indented JSON.
func WriteNamesJSON(w io.Writer, names taxonomy.Names, taxids taxonomy.Set) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NamesJSON(names, taxids))
}
