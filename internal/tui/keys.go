package tui

// Key bindings. The editor receives every other key.
const (
	keyRun          = "ctrl+r"
	keyNextTier     = "ctrl+t"
	keyNextQuestion = "ctrl+n"
	keyPrevQuestion = "ctrl+p"
	keyHint         = "ctrl+g"
	keyAnswer       = "ctrl+o"
	keyData         = "ctrl+d"
	keyQuit         = "ctrl+c"
	keyEscape       = "esc"
)

type binding struct {
	key  string
	help string
}

var practiceHelp = []binding{
	{keyRun, "run"},
	{keyNextTier, "tier"},
	{keyPrevQuestion + "/" + keyNextQuestion, "question"},
	{keyHint, "hint"},
	{keyAnswer, "answer"},
	{keyData, "data"},
	{keyEscape, "quit"},
}

var dataHelp = []binding{
	{keyData, "next table"},
	{keyEscape, "back"},
}
