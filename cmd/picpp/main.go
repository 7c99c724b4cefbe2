package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	appErrors "picpp/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		exitWithError(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "picpp",
		Short:         "picpp - batch convert images to JPG, WEBP or AVIF",
		Long:          "picpp converts batches of images to JPG, WEBP or AVIF, either next to the originals or into a separate folder.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return appErrors.Wrap(appErrors.InvalidConfig, "flags", "", err)
	})

	root.AddCommand(newConvertCmd(), newWatchCmd())
	return root
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
	os.Exit(1)
}
