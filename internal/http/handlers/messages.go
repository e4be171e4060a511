package handlers

// User-facing messages returned in {"error": ...} / {"message": ...} bodies.
const (
	msgUnauthenticated = "認証が必要です"
	msgForbidden       = "権限がありません"
	msgTaskNotFound    = "タスクが見つかりません"
	msgBadRequest      = "リクエストが不正です"
	msgTitleRequired   = "タイトルを入力してください"

	msgListFailed   = "タスクの取得に失敗しました"
	msgCreateFailed = "タスクの作成に失敗しました"
	msgUpdateFailed = "タスクの更新に失敗しました"
	msgDeleteFailed = "タスクの削除に失敗しました"
	msgDeleted      = "タスクを削除しました"

	msgConfirmationSent = "確認メールを送信しました。メールをご確認ください。"
	msgSignedUp         = "アカウントを作成しました。"
	msgSignedOut        = "ログアウトしました"
	msgSignOutFailed    = "ログアウトに失敗しました"
	msgAuthFailed       = "エラーが発生しました。もう一度お試しください。"
)

// Provider messages stay in the provider's wording; the auth form localizes
// them.
const (
	providerInvalidSignUp = "Invalid email or password"
	providerWeakPassword  = "Password should be at least 6 characters"
)
