package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

// Example unlocks the server and prints the dashboard
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	if _, err := c.Session().Unlock(ctx, "master-password"); err != nil {
		log.Fatal(err)
	}

	d, err := c.Data().Dashboard(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d accounts, total %.2f %s\n", len(d.Accounts), d.TotalBalance, d.Currency)
}

// ExampleAccountService_Create adds an account and validates its keys
func ExampleAccountService_Create() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "session-token",
	})

	acc, err := c.Accounts().Create(context.Background(), client.CreateAccountRequest{
		Name:       "production",
		Provider:   "ucloud",
		PublicKey:  "your-public-key",
		PrivateKey: "your-private-key",
	}, true)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Created account %s\n", acc.ID)
}

// ExampleAlertService_CreateRule raises a notification when a balance drops below 100
func ExampleAlertService_CreateRule() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "session-token",
	})

	ctx := context.Background()
	rule, err := c.Alerts().CreateRule(ctx, client.RuleRequest{
		AccountID: "account-id",
		Type:      "balance",
		Threshold: 100,
		Operator:  "lt",
	})
	if err != nil {
		log.Fatal(err)
	}

	res, err := c.Alerts().Check(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Rule %s, %d triggered\n", rule.ID, res.Triggered)
}
