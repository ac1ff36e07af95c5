package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memexlabs/memex/internal/clifmt"
	"github.com/memexlabs/memex/store"
)

var (
	itemsQuery string
	itemsSpace string
	itemsLimit int
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List or search captured items",
	RunE:  runItems,
}

var itemsRemoveCmd = &cobra.Command{
	Use:   "rm <item-id>",
	Short: "Remove an item and its space links",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsRemove,
}

func init() {
	itemsCmd.Flags().StringVarP(&itemsQuery, "query", "q", "", "search titles, urls and descriptions")
	itemsCmd.Flags().StringVarP(&itemsSpace, "space", "s", "", "only items in this space")
	itemsCmd.Flags().IntVar(&itemsLimit, "limit", 0, "maximum results for a search")
	itemsCmd.AddCommand(itemsRemoveCmd)
}

func runItems(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	var items []store.Item
	switch {
	case itemsQuery != "":
		items = a.Store.SearchItems(itemsQuery, itemsLimit)
	case itemsSpace != "":
		items = a.Store.ItemsInSpace(itemsSpace)
	default:
		items = a.Store.Items()
	}

	if len(items) == 0 {
		fmt.Println(clifmt.Dim("no items"))
		return nil
	}
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.URL
		}
		fmt.Println(clifmt.Bullet(title, item.ID))
		fmt.Printf("    %s %s\n", clifmt.Key(string(item.Type)), clifmt.Dim(item.URL))
	}
	return nil
}

func runItemsRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	id := args[0]
	if _, ok := a.Store.ItemByID(id); !ok {
		return fmt.Errorf("no item with id %s", id)
	}
	a.Store.RemoveItemLinks(id)
	a.Store.RemoveItem(id)
	a.Dispatch.Go("delete_item", func(ctx context.Context) error {
		return a.Backend.DeleteItem(ctx, id)
	})
	a.Dispatch.Flush()
	fmt.Println(clifmt.Success("removed"), clifmt.Dim(id))
	return nil
}
