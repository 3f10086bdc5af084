package conversation

// 构造函数供客户端自身生成对象（乐观用户消息、错误块）以及测试使用。

func textObject(kind Kind, text string) Object {
	return Object{Type: kind, Text: scalarPtr(text)}
}

func UserMessage(text string) Object        { return textObject(KindUserMessage, text) }
func IntroBlurb(text string) Object         { return textObject(KindIntroBlurb, text) }
func ServerError(text string) Object        { return textObject(KindServerError, text) }
func ClientError(text string) Object        { return textObject(KindError, text) }
func SceneDescription(text string) Object   { return textObject(KindResultingSceneDescription, text) }
func ConditionTable(text string) Object     { return textObject(KindConditionTable, text) }
func TrackedOperations(text string) Object  { return textObject(KindTrackedOperations, text) }
func DifficultyAnalysis(text string) Object { return textObject(KindDifficultyAnalysis, text) }
func RevealAnalysis(text string) Object     { return textObject(KindWorldRevealAnalysis, text) }

// Text 构造任意文本类对象。
func Text(kind Kind, text string) Object { return textObject(kind, text) }

func DifficultyTarget(value string) Object {
	return Object{Type: KindDifficultyTarget, Value: scalarPtr(value)}
}

func RevealLevel(value string) Object {
	return Object{Type: KindWorldRevealLevel, Value: scalarPtr(value)}
}

func DifficultyRoll(n int) Object {
	return Object{Type: KindDifficultyRoll, Integer: &n}
}

func RevealRoll(n int) Object {
	return Object{Type: KindWorldRevealRoll, Integer: &n}
}

func Unrecognized(header, body string) Object {
	return Object{Type: KindUnrecognizedSection, HeaderText: &header, BodyText: &body}
}
