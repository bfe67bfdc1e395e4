package cli

import (
	"context"
	"fmt"

	"github.com/reminthq/remint/internal"
)

// Represents the 'remint version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
