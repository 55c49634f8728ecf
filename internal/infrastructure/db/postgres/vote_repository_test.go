package postgres

import (
	"strings"
	"testing"
)

func squash(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func TestTopCandidatesSQL(t *testing.T) {
	q := squash(topCandidatesSQL)

	for _, want := range []string{
		"COUNT(v.id) AS votes_count",
		"WHERE c.id IN (SELECT candidate_id FROM votes WHERE user_id = ?)",
		"GROUP BY c.id, c.name",
		"ORDER BY votes_count DESC, c.id ASC LIMIT ?",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("top candidates query missing %q:\n%s", want, q)
		}
	}
	if strings.Count(q, "?") != 2 {
		t.Fatalf("expected user id and limit placeholders, got %q", q)
	}
	if !strings.HasSuffix(q, "LIMIT ?") {
		t.Fatalf("limit must close the query: %q", q)
	}
}

func TestMyVotesSQL_CountsEveryVoteOfTheCandidate(t *testing.T) {
	q := squash(myVotesSQL)
	if !strings.Contains(q, "(SELECT COUNT(*) FROM votes v2 WHERE v2.candidate_id = v.candidate_id) AS votes_count") {
		t.Fatalf("votes_count must count all votes for the candidate: %q", q)
	}
	if !strings.Contains(q, "LEFT JOIN candidate_types t") {
		t.Fatalf("untyped candidates must stay in the list: %q", q)
	}
}
