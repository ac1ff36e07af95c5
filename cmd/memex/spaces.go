package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/memexlabs/memex/internal/clifmt"
	"github.com/memexlabs/memex/store"
)

var spacesAll bool

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List spaces",
	RunE:  runSpaces,
}

var spacesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpacesAdd,
}

var spacesArchiveCmd = &cobra.Command{
	Use:   "archive <space-id>",
	Short: "Archive a space without touching its items",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpacesArchive,
}

var spacesRemoveCmd = &cobra.Command{
	Use:   "rm <space-id>",
	Short: "Delete a space; its items stay in the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpacesRemove,
}

func init() {
	spacesCmd.Flags().BoolVarP(&spacesAll, "all", "a", false, "include archived spaces")
	spacesCmd.AddCommand(spacesAddCmd)
	spacesCmd.AddCommand(spacesArchiveCmd)
	spacesCmd.AddCommand(spacesRemoveCmd)
}

func runSpaces(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	spaces := a.Store.ActiveSpaces()
	if spacesAll {
		spaces = a.Store.Spaces()
	}
	if len(spaces) == 0 {
		fmt.Println(clifmt.Dim("no spaces"))
		return nil
	}
	for _, sp := range spaces {
		label := sp.Name
		if sp.Archived {
			label += " " + clifmt.Warn("[archived]")
		}
		fmt.Println(clifmt.Bullet(label, sp.ID))
		fmt.Printf("    %s\n", clifmt.Dim(fmt.Sprintf("%d items", a.Store.ItemCount(sp.ID))))
	}
	return nil
}

func runSpacesAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("space name is empty")
	}
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	space := store.Space{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   a.Backend.CurrentUserID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.Store.AddSpace(space)
	a.Dispatch.Go("create_space", func(ctx context.Context) error {
		return a.Backend.CreateSpace(ctx, space)
	})
	a.Dispatch.Flush()
	fmt.Println(clifmt.Success("created"), clifmt.Bullet(space.Name, space.ID))
	return nil
}

func runSpacesArchive(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	space, ok := a.Store.SpaceByID(args[0])
	if !ok {
		return fmt.Errorf("no space with id %s", args[0])
	}
	space.Archived = true
	space.UpdatedAt = time.Now().UnixMilli()
	if err := a.Store.UpdateSpace(space); err != nil {
		return err
	}
	a.Dispatch.Go("update_space", func(ctx context.Context) error {
		return a.Backend.UpdateSpace(ctx, space)
	})
	a.Dispatch.Flush()
	fmt.Println(clifmt.Success("archived"), clifmt.Dim(space.ID))
	return nil
}

func runSpacesRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	id := args[0]
	if _, ok := a.Store.SpaceByID(id); !ok {
		return fmt.Errorf("no space with id %s", id)
	}
	a.Store.RemoveSpaceLinks(id)
	a.Store.RemoveSpace(id)
	a.Dispatch.Go("delete_space", func(ctx context.Context) error {
		return a.Backend.DeleteSpace(ctx, id)
	})
	a.Dispatch.Flush()
	fmt.Println(clifmt.Success("removed"), clifmt.Dim(id))
	return nil
}
