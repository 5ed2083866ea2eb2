// uibridge runs small text input/output components that can be driven by
// an external host.
package main

import "github.com/linanwx/uibridge/cmd"

func main() {
	cmd.Execute()
}
