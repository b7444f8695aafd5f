package config

func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{botToken: botToken, channel: channel}
}

func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{projectID: projectID, location: location}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewCacheForTest(backend, badgerPath, redisAddr string) *Cache {
	return &Cache{backend: backend, badgerPath: badgerPath, redisAddr: redisAddr, key: "ai-cache"}
}

func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

func NewPolicyFileForTest(path string) *PolicyFile {
	return &PolicyFile{path: path}
}

func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}
