package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/skyexpress/courier/pkg/kv"
	"github.com/skyexpress/courier/pkg/pickup"
)

func main() {
	// Usage: go run main.go -name "A" -phone "98765 43210" -address "X" -service "Domestic"

	nameFlag := flag.String("name", "", "Customer name")
	phoneFlag := flag.String("phone", "", "Phone number, free-form")
	addressFlag := flag.String("address", "", "Pickup address")
	serviceFlag := flag.String("service", "Domestic", "Service type")

	flag.Parse()

	if *nameFlag == "" || *phoneFlag == "" || *addressFlag == "" {
		fmt.Println("name, phone and address are required.")
		return
	}

	// An in-memory store is enough for a one-shot run; use pkg/storage for
	// a durable duplicate window across runs.
	pipeline := pickup.New(pickup.Config{
		Store:          kv.NewMemory(),
		BusinessNumber: "918121592299",
	})

	res, err := pipeline.Submit(context.Background(), pickup.Request{
		Name:     *nameFlag,
		PhoneRaw: *phoneFlag,
		Address:  *addressFlag,
		Service:  *serviceFlag,
	})
	if err != nil {
		fmt.Println("submission failed:", err)
		return
	}

	fmt.Println(res.Message)
	fmt.Println()
	fmt.Println("Deep link:", res.URL)
}
