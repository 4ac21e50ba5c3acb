package pipeline

import "fedorabatch/pkg/types"

// Stage 是单个对象在一次运行中的状态
// Fetched -> Transformed -> Written；任何失败 -> Aborted (整个运行停止)
type Stage int

const (
	StageFetched Stage = iota + 1
	StageTransformed
	StageWritten
	StageAborted
)

func (s Stage) String() string {
	switch s {
	case StageFetched:
		return "fetched"
	case StageTransformed:
		return "transformed"
	case StageWritten:
		return "written"
	case StageAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Observer 接收每个对象的状态变化，同步调用
type Observer func(stage Stage, id types.ObjectID)
