// =============================================================================
// csv2mdx - Main Entry Point
// =============================================================================
//
// USAGE:
//   csv2mdx process -c <table> -t <template>  - Write one document per row
//   csv2mdx validate -c <table> -t <template> - Report mismatches only
//   csv2mdx version                           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : loaders, renderer, batch runner, validation
//   - pkg/utils  : text decoding and the backing-up file writer
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv2mdx/cmd"
)

func main() {
	cmd.Execute()
}
