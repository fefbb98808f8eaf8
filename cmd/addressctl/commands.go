package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/domain"
)

// addressFlags binds one flag per address field.
type addressFlags struct {
	values map[string]*string
}

func bindAddressFlags(cmd *cobra.Command) *addressFlags {
	f := &addressFlags{values: make(map[string]*string)}
	for _, field := range address.CheckOrder() {
		f.values[field] = cmd.Flags().String(field, "", "address "+field)
	}
	return f
}

// apply sets every flag the user passed on the form's draft.
func (f *addressFlags) apply(cmd *cobra.Command, set func(field, value string) error) error {
	for _, field := range address.CheckOrder() {
		if !cmd.Flags().Changed(field) {
			continue
		}
		if err := set(field, *f.values[field]); err != nil {
			return err
		}
	}
	return nil
}

func newRootCmd(build appBuilder) *cobra.Command {
	root := &cobra.Command{
		Use:           "addressctl",
		Short:         "Manage saved shipping addresses",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().String("url", "", "address service base URL (overrides ADDRESS_SERVICE_URL)")
	root.PersistentFlags().String("token", "", "bearer token (overrides ADDRESS_TOKEN)")

	root.AddCommand(
		newListCmd(build),
		newAddCmd(build),
		newEditCmd(build),
		newRemoveCmd(build),
		newSampleCmd(),
	)
	return root
}

func newListCmd(build appBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.section.Refresh(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", domain.ErrorMessage(err))
				return err
			}
			printList(cmd.OutOrStdout(), a.section.Addresses())
			return nil
		},
	}
}

func newAddCmd(build appBuilder) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new address",
		Args:  cobra.NoArgs,
	}
	flags := bindAddressFlags(cmd)
	cmd.Flags().BoolVar(&sample, "sample", false, "prefill every field with the sample address")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := build(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		defer a.report(cmd.OutOrStdout())

		form := a.section.Form()
		if err := a.section.AddNew(); err != nil {
			return err
		}
		if sample {
			form.Prefill(address.SampleAddress())
		}
		if err := flags.apply(cmd, form.Set); err != nil {
			return err
		}
		a.watch(cmd.OutOrStdout())
		return form.Submit(cmd.Context())
	}
	return cmd
}

func newEditCmd(build appBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a saved address",
		Args:  cobra.ExactArgs(1),
	}
	flags := bindAddressFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := build(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		defer a.report(cmd.OutOrStdout())

		if err := a.section.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err := a.section.Edit(args[0]); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", domain.ErrorMessage(err))
			return err
		}

		form := a.section.Form()
		if err := flags.apply(cmd, form.Set); err != nil {
			return err
		}
		a.watch(cmd.OutOrStdout())
		return form.Submit(cmd.Context())
	}
	return cmd
}

func newRemoveCmd(build appBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			defer a.report(cmd.OutOrStdout())

			if err := a.section.Refresh(cmd.Context()); err != nil {
				return err
			}
			target, ok := a.section.Addresses().Find(args[0])
			if !ok {
				err := domain.NotFound("address.remove", "address", args[0])
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", domain.ErrorMessage(err))
				return err
			}
			a.watch(cmd.OutOrStdout())
			return a.section.Delete(cmd.Context(), target)
		},
	}
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print the sample address used by add --sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(address.SampleAddress())
		},
	}
}
