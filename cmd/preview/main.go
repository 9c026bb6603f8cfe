// Package main provides a quick look at what the parser extracts from
// an XML file, rendered as a markdown summary table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pubxml/internal/formatter"
	"pubxml/internal/models"
	"pubxml/internal/parser"
)

func main() {
	inputPath := flag.String("input", "", "Path to article XML file")
	source := flag.String("source", "", "Source label attached to records")
	showSections := flag.Bool("sections", false, "Also print each article's section names")

	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: preview -input <articles.xml> [-sections]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	defer f.Close()

	seq, err := parser.NewParser().Parse(f, *source)
	if err != nil {
		log.Fatalf("error parsing %s: %v", *inputPath, err)
	}

	var (
		articles []*models.Article
		failed   int
	)

	for article, err := range seq {
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping article: %v\n", err)
			failed++

			continue
		}

		articles = append(articles, article)
	}

	fmt.Printf("%s: %d articles (%d failed)\n\n", *inputPath, len(articles), failed)

	if len(articles) > 0 {
		fmt.Print(formatter.SummaryTable(articles))
	}

	if *showSections {
		for _, article := range articles {
			fmt.Printf("\n%s (%s)\n", article.Title, article.UID)

			for _, sec := range article.Sections {
				fmt.Printf("  %s: %s\n", sec.Name, sec.Text)
			}
		}
	}
}
