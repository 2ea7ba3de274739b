package cli_test

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/lrutable/internal/cli"
	"github.com/calvinalkan/lrutable/internal/fs"
	"github.com/calvinalkan/lrutable/internal/wordcount"
)

const sampleText = "The cat and the dog.\nThe END!\n"

func Test_Count_Prints_Report_In_Slot_Order_When_Reading_Stdin(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(sampleText, "count")

	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	// Homes with 32000 slots: and=1670 end=11274 the=12924 cat=14631 dog=15593.
	want := "" +
		"and 1\n" +
		"end 1\n" +
		"the 3\n" +
		"cat 1\n" +
		"dog 1\n" +
		"oldest=cat\n" +
		"latest=end\n"
	assert.Equal(t, want, stdout)
}

func Test_Count_Reads_Files_Relative_To_Cwd_When_Paths_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "one two\n")
	c.WriteFile("sub/b.txt", "two three\n")

	stdout := c.MustRun("count", "a.txt", "sub/b.txt")

	cli.AssertContains(t, stdout, "one 1")
	cli.AssertContains(t, stdout, "two 2")
	cli.AssertContains(t, stdout, "three 1")
	cli.AssertContains(t, stdout, "oldest=one")
	cli.AssertContains(t, stdout, "latest=three")
}

func Test_Count_Writes_Json_Rows_When_Format_Json(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(sampleText, "count", "--format", "json")

	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	var rows []wordcount.Row
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))

	sort.Slice(rows, func(i, j int) bool { return rows[i].Word < rows[j].Word })

	want := []wordcount.Row{
		{Word: "and", Count: 1},
		{Word: "cat", Count: 1},
		{Word: "dog", Count: 1},
		{Word: "end", Count: 1},
		{Word: "the", Count: 3},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func Test_Count_Writes_Report_File_When_Out_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(sampleText, "count", "--out", "reports/words.txt")

	require.Equal(t, 0, exitCode, "stderr: %s", stderr)

	path := filepath.Join(c.Dir, "reports", "words.txt")
	assert.Equal(t, "wrote 7 words (5 distinct) to "+path+"\n", stdout)

	report := c.ReadFile("reports/words.txt")
	cli.AssertContains(t, report, "the 3\n")
	cli.AssertContains(t, report, "latest=end\n")
}

func Test_Count_Fails_With_Capacity_Hint_When_Table_Too_Small(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(sampleText, "count", "--capacity", "0")

	assert.Equal(t, 1, exitCode)
	assert.Empty(t, stdout)
	cli.AssertContains(t, stderr, "probe exhausted")
	cli.AssertContains(t, stderr, "larger --capacity than 0")
}

func Test_Count_Uses_Configured_Capacity_When_Project_Config_Present(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".lrut.json", `{
  // two slots for five distinct words
  "capacity": 2,
}`)

	_, stderr, exitCode := c.RunWithInput(sampleText, "count")

	assert.Equal(t, 1, exitCode)
	cli.AssertContains(t, stderr, "probe exhausted")
	cli.AssertContains(t, stderr, "larger --capacity than 2")

	// The flag beats the config file.
	_, stderr, exitCode = c.RunWithInput(sampleText, "count", "--capacity", "64")
	assert.Equal(t, 0, exitCode, "stderr: %s", stderr)
}

func Test_Count_Uses_Env_Format_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["LRUT_FORMAT"] = "json"

	stdout, stderr, exitCode := c.RunWithInput("x\n", "count")

	require.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.JSONEq(t, `[{"word":"x","count":1}]`, stdout)
}

func Test_Count_Rejects_Unknown_Format_When_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("count", "--format", "xml")

	cli.AssertContains(t, stderr, "unknown report format")
}

func Test_Count_Rejects_Negative_Capacity_When_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("count", "--capacity", "-1")

	cli.AssertContains(t, stderr, "--capacity must be non-negative")
}

func Test_Count_Fails_When_Input_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("count", "missing.txt")

	cli.AssertContains(t, stderr, "open input")
	cli.AssertContains(t, stderr, "missing.txt")
}

func Test_Count_Prints_Dash_For_Ends_When_Input_Empty(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, exitCode := c.RunWithInput("", "count")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "oldest=-\nlatest=-\n", stdout)
}

func Test_Count_Leaves_Previous_Report_When_Write_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("words.txt", "previous\n")

	faulty := fs.NewFaulty(fs.NewReal())
	faulty.Fail(fs.OpWriteFileAtomic, syscall.ENOSPC)

	stdout, stderr, exitCode := c.RunWithFS(faulty, sampleText, "count", "--out", "words.txt")

	assert.Equal(t, 1, exitCode)
	assert.Empty(t, stdout)
	cli.AssertContains(t, stderr, "write report")
	cli.AssertContains(t, stderr, "no space left on device")
	assert.Equal(t, "previous\n", c.ReadFile("words.txt"))
	assert.Equal(t, 1, faulty.Calls(fs.OpWriteFileAtomic))
}

func Test_Count_Fails_When_Input_Open_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("in.txt", "hello\n")

	faulty := fs.NewFaulty(fs.NewReal())
	faulty.Fail(fs.OpOpen, syscall.EACCES)

	_, stderr, exitCode := c.RunWithFS(faulty, "", "count", "in.txt")

	assert.Equal(t, 1, exitCode)
	cli.AssertContains(t, stderr, "open input")
	cli.AssertContains(t, stderr, "permission denied")
}
