package app

const saveLogSize = 16

// saveLog remembers the recent contents this process saved for the open
// page. The page watcher and the mirror read content without the app lock,
// so a row they report can be any of our recent saves, not only the last.
type saveLog struct {
	pageID  string
	entries []string
}

// reset starts the log over for a newly opened page.
func (l *saveLog) reset(pageID, content string) {
	l.pageID = pageID
	l.entries = []string{content}
}

func (l *saveLog) record(pageID, content string) {
	if pageID != l.pageID {
		l.reset(pageID, content)
		return
	}
	if n := len(l.entries); n > 0 && l.entries[n-1] == content {
		return
	}
	l.entries = append(l.entries, content)
	if len(l.entries) > saveLogSize {
		l.entries = append([]string(nil), l.entries[len(l.entries)-saveLogSize:]...)
	}
}

func (l *saveLog) contains(pageID, content string) bool {
	if pageID != l.pageID {
		return false
	}
	for _, e := range l.entries {
		if e == content {
			return true
		}
	}
	return false
}

// last returns the newest saved content, or "" when nothing was saved.
func (l *saveLog) last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}
