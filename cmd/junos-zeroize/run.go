package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errZeroizeFailed = errors.New("zeroize failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Zeroize the device",
	Long: `Zeroize the device:
1. Check the safety flag (--zeroize=zeroize)
2. Choose NETCONF or console from whether --console is set
3. Check the NETCONF client or console tool version
4. Send the zeroize command (the device reboots and drops the session)
5. Print the JSON result`,
	RunE: runZeroize,
}

func runZeroize(cmd *cobra.Command, args []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load parameters")
		return emitResult(cmd.OutOrStdout(), models.NewFailedResult(err))
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	runnerSvc := runner.New(log.Logger)
	return emitResult(cmd.OutOrStdout(), runnerSvc.Run(ctx, *params))
}

// emitResult writes the single result payload.
func emitResult(w io.Writer, result models.Result) error {
	if err := json.NewEncoder(w).Encode(result); err != nil {
		return err
	}
	if result.Failed {
		return errZeroizeFailed
	}
	return nil
}
