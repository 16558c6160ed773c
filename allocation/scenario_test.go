package allocation

import (
	"io/ioutil"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	yaml "gopkg.in/yaml.v2"

	"github.com/plotnest/syndicate/types"
)

type suiteScenarioTester struct {
	suite.Suite
}

type ScenarioEntry struct {
	Name   string   `yaml:"name"`
	Shares int      `yaml:"shares"`
	Price  string   `yaml:"price"`
	Steps  []string `yaml:"steps"`
	Expect []string `yaml:"expect"`
}

func splitFields(line string) []string {
	raw := strings.Split(line, ",")

	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.TrimSpace(f))
	}

	return fields
}

func invitationAt(book *ShareBook, position int) (Invitation, bool) {
	for _, view := range book.Snapshot() {
		if view.Position == position && len(view.InvitationID) > 0 {
			return book.InvitationByRef(view.InvitationID)
		}
	}

	return Invitation{}, false
}

func (e *ScenarioEntry) Test(s *suiteScenarioTester) {
	s.T().Run(e.Name, func(t *testing.T) {
		book := NewShareBook(1, e.Shares, decimal.RequireFromString(e.Price))

		for _, step := range e.Steps {
			fields := splitFields(step)
			position, err := strconv.Atoi(fields[1])
			s.Require().NoError(err)

			switch fields[0] {
			case "reserve":
				_, _, err := book.Reserve(position, fields[3], fields[2], Contact{Name: "Invitee"}, time.Hour)
				s.NoError(err)
			case "accept":
				invitation, found := invitationAt(book, position)
				s.Require().True(found)
				_, _, err := book.Accept(invitation.ID, time.Now())
				s.NoError(err)
			case "cancel":
				invitation, found := invitationAt(book, position)
				s.Require().True(found)
				_, _, err := book.Cancel(invitation.ID)
				s.NoError(err)
			case "release":
				_, _, err := book.Release(position)
				s.NoError(err)
			}
		}

		views := book.Snapshot()
		for _, expectation := range e.Expect {
			fields := splitFields(expectation)
			position, err := strconv.Atoi(fields[0])
			s.Require().NoError(err)

			s.Equal(types.ShareState(fields[1]), views[position-1].State)
		}
	})
}

func (s *suiteScenarioTester) TestScenarios() {
	buf, err := ioutil.ReadFile("testdata/scenarios.yml")
	s.Require().NoError(err)

	var entries []*ScenarioEntry
	s.Require().NoError(yaml.Unmarshal(buf, &entries))

	for _, entry := range entries {
		entry.Test(s)
	}
}

func TestShareBookScenarios(t *testing.T) {
	suite.Run(t, new(suiteScenarioTester))
}
