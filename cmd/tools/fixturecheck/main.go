package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/zhouzirui/alu-chat/backend/internal/config"
	"github.com/zhouzirui/alu-chat/backend/internal/model/chat"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	path := flag.String("file", cfg.Fixture.Path, "fixture JSON 文件路径，留空则检查内置演示数据")
	flag.Parse()

	fixture, err := load(*path)
	if err != nil {
		log.Fatalf("fixture 校验失败: %v", err)
	}

	source := *path
	if source == "" {
		source = "built-in seed"
	}
	fmt.Printf("fixture %s OK, current user %s (%s)\n", source, fixture.CurrentUser.Name, fixture.CurrentUser.ID)
	renderSummary(os.Stdout, fixture)
}

func load(path string) (chat.Fixture, error) {
	if path == "" {
		seed := chat.SeedFixture()
		return seed, seed.Validate()
	}
	return chat.LoadFixtureFile(path)
}

func renderSummary(w io.Writer, fixture chat.Fixture) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Type", "Display Name", "Members", "Messages", "Last Message"})
	table.SetAutoWrapText(false)
	table.SetBorder(true)

	for _, c := range fixture.Chats {
		last := "-"
		if c.LastMessage != nil {
			last = c.LastMessage.Content
		}
		table.Append([]string{
			c.ID,
			string(c.Kind),
			c.DisplayName(fixture.CurrentUser.ID),
			strconv.Itoa(len(c.Participants)),
			strconv.Itoa(len(c.Messages)),
			last,
		})
	}

	table.Render()
}
