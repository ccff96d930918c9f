// Command go-apfs is the CLI entrypoint: a thin wrapper around cmd.Execute,
// matching the one-file-main convention Cobra-based tools in this lineage use.
package main

import "github.com/deploymenttheory/go-apfs/cmd"

func main() {
	cmd.Execute()
}
