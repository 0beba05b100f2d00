// Command verdant runs the garden placement daemon and its companion tools.
package main

import "github.com/pottingshed/verdant/cmd"

func main() {
	cmd.Execute()
}
