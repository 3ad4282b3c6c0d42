package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lllllllleong/processdocumentflow/internal/app"
	"github.com/Lllllllleong/processdocumentflow/internal/catalog"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/Lllllllleong/processdocumentflow/internal/web"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
	app        *app.App
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "processo",
		Short:         "Consulta documentos de processos e gera resumos via LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if opts.configPath != "" {
				if err := cfg.Overlay(opts.configPath); err != nil {
					return err
				}
			}
			if opts.verbose {
				cfg.LogLevel = "debug"
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			opts.app = app.New(cfg, nil, logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.app != nil {
				return opts.app.Close()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML file overriding environment settings")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newTokenCmd(opts))
	rootCmd.AddCommand(newTiposCmd())
	rootCmd.AddCommand(newDocumentosCmd(opts))
	rootCmd.AddCommand(newResumirCmd(opts))
	return rootCmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Obtém um token de acesso da API de processos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.app.Auth.Process(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}
}

func newTiposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tipos",
		Short: "Lista os tipos de pedido e os tipos de documento de cada um",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), catalog.Default())
		},
	}
}

func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	for _, name := range cat.Names() {
		if _, err := fmt.Fprintf(w, "%s: %v\n", name, cat.DocumentTypes(name)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "(padrão): %v\n", cat.Default)
	return err
}

type lookupFlags struct {
	numero        string
	tipoPedido    string
	documentTypes []string
}

func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.numero, "numero", "n", "", "Número do processo (ex.: 0740203-54.2024.8.07.0000)")
	cmd.Flags().StringVarP(&f.tipoPedido, "tipo-pedido", "t", "", "Tipo de pedido (veja 'processo tipos')")
	cmd.Flags().StringSliceVar(&f.documentTypes, "documento", nil, "Tipo de documento a buscar; substitui --tipo-pedido")
	_ = cmd.MarkFlagRequired("numero")
}

func (f *lookupFlags) request(cat *catalog.Catalog) *models.DocumentsRequest {
	types := f.documentTypes
	if len(types) == 0 {
		types = cat.DocumentTypes(f.tipoPedido)
	}
	return &models.DocumentsRequest{ProcessNumber: f.numero, DocumentTypes: types}
}

func newDocumentosCmd(opts *rootOptions) *cobra.Command {
	flags := &lookupFlags{}
	cmd := &cobra.Command{
		Use:   "documentos",
		Short: "Busca os documentos do processo e o texto montado para o LLM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.app.Documents.Process(cmd.Context(), flags.request(opts.app.Catalog))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(res)
		},
	}
	flags.register(cmd)
	return cmd
}

func newResumirCmd(opts *rootOptions) *cobra.Command {
	flags := &lookupFlags{}
	cmd := &cobra.Command{
		Use:   "resumir",
		Short: "Busca os documentos do processo e envia o texto ao LLM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := opts.app.Documents.Process(cmd.Context(), flags.request(opts.app.Catalog))
			if err != nil {
				return err
			}
			if msg := web.ValidateDocuments(docs.Documents); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			res, err := opts.app.Grok.Process(cmd.Context(), &models.GrokRequest{GrokText: docs.GrokText})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.GrokResponse)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
