package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/MycosoftLabs/biosearch/config"
	srv "github.com/MycosoftLabs/biosearch/internal/server"
)

func main() {
	root := &cobra.Command{Use: "biosearchd"}
	root.AddCommand(serveCMD())
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the unified search HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg)
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return serve
}
