package log

type Options struct {
	Name        string
	FilePath    string
	Level       string
	MaxSize     int
	MaxBackups  int
	MaxAge      int
	Compress    bool
	AddCaller   bool
	Development bool
}
