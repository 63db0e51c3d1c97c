package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/server"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var (
	serveAddr    string
	serveNoCheck bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "listen address")
	serveCmd.Flags().BoolVar(&serveNoCheck, "no-update-check", false, "skip the release check at startup")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API for the editor front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false, true)
		if err != nil {
			return err
		}
		defer func() {
			a.Log.Sync()
			a.Close()
		}()

		fmt.Println(ui.Green.Render("Skin Studio") + " " + ui.Cyan.Render(a.Version))
		ui.KV(os.Stdout, "data", a.Paths.Root)
		if path, err := a.SkinPath(); err == nil {
			ui.KV(os.Stdout, "skin", path)
		} else {
			ui.KV(os.Stdout, "skin", ui.Yellow.Render(err.Error()))
		}

		srv := server.New(a, server.WithAddr(serveAddr))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if !serveNoCheck {
			go func() {
				checkCtx, done := context.WithTimeout(ctx, 20*time.Second)
				defer done()
				s := a.Updater.CheckOnStartup(checkCtx)
				if s.HasUpdate {
					a.Log.Info("update available", zap.String("current", s.Current), zap.String("latest", s.Latest))
				}
			}()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

		errc := make(chan error, 1)
		go func() {
			fmt.Printf("\nListening on http://%s\n", srv.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("server error: %w", err)
		case <-sig:
		}
		fmt.Println("\nShutting down...")

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	},
}
