/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/suparena/jsonrepeater/processor"
)

func main() {
	processor.Main()
}
