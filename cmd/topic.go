package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/custodian/docs"
	"github.com/google/subcommands"
)

// topicCmd displays user manual topics.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "displays a user manual topic" }
func (*topicCmd) Usage() string {
	return `ctd topic <topic_name>...

  Displays one or more user manual topics. Use 'ctd topic' without arguments
  to list the available topics, and 'ctd topic "*"' to read the whole manual.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		topics, err := docs.GetAllTopics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing topics: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Available topics: %s\n", strings.Join(topics, ", "))
		return subcommands.ExitSuccess
	}

	content, err := docs.GetTopics(f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
