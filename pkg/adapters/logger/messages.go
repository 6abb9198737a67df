package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Bridge lifecycle
		"Starting bridge...":               "ブリッジを開始しています...",
		"Stream: %s":                       "ストリーム: %s",
		"TLS mode: %s":                     "TLSモード: %s",
		"Output: %dx%d @ %dfps to %s (%s)": "出力: %dx%d @ %dfps → %s (%s)",
		"Press Ctrl+C to stop":             "Ctrl+C で停止します",
		"Bridge stopped":                   "ブリッジを停止しました",
		"Interrupted, shutting down...":    "中断されました。シャットダウン中...",
		"Metrics on http://%s/metrics":     "メトリクス: http://%s/metrics",

		// Supervisor
		"Connecting to %s":                         "%s に接続中",
		"Connected! Receiving phone camera (%s)":   "接続しました。スマートフォンのカメラを受信中 (%s)",
		"Connection failed (attempt %d/%d): %s":    "接続に失敗しました (試行 %d/%d): %s",
		"Connection closed (attempt %d/%d): %s":    "接続が切断されました (試行 %d/%d): %s",
		"Max retries reached, exiting":             "最大再試行回数に達しました。終了します",
		"Retrying in %s":                           "%s 後に再試行します",
		"Session %s started":                       "セッション %s を開始しました",
		"Session %s ended after %d frames":         "セッション %s が %d フレームで終了しました",
		"State %s -> %s":                           "状態 %s -> %s",
		"Ignoring %s message (%d bytes)":           "%s メッセージを無視します (%d バイト)",
		"SSL certificate verification is disabled": "SSL証明書の検証が無効になっています",
		"Failed to write standby frame: %s":        "待機画面の書き込みに失敗しました: %s",
		"Stopping":                                 "停止しています",

		// WebSocket client
		"Dialing %s":      "%s にダイヤル中",
		"Connected to %s": "%s に接続しました",

		// Frame processing
		"Orientation changed to: %s (%dx%d)":                 "向きが変わりました: %s (%dx%d)",
		"FPS: %.1f, Mode: %s, Input: %dx%d":                  "FPS: %.1f, モード: %s, 入力: %dx%d",
		"Decoded %s frame %dx%d, scaled to %dx%d at (%d,%d)": "%s フレーム %dx%d をデコードし %dx%d に縮小 (%d,%d)",
		"Frame dropped: %s":                                  "フレームを破棄しました: %s",
		"Failed to save debug frame: %s":                     "デバッグフレームの保存に失敗しました: %s",
		"Failed to save debug payload: %s":                   "デバッグペイロードの保存に失敗しました: %s",

		// Virtual camera
		"Virtual camera created: %s":         "仮想カメラを作成しました: %s",
		"Output resolution: %dx%d @ %dfps":   "出力解像度: %dx%d @ %dfps",
		"Failed to initialize camera: %s":    "カメラの初期化に失敗しました: %s",
		"Virtual camera failed: %s":          "仮想カメラでエラーが発生しました: %s",
		"Failed to close virtual camera: %s": "仮想カメラを閉じられませんでした: %s",
		"Virtual camera closed":              "仮想カメラを閉じました",
		"Resolved %q to %s (%s)":             "%q を %s (%s) に解決しました",
		"Configured %s for RGB24 %dx%d@%d":   "%s を RGB24 %dx%d@%d に設定しました",
		"Writing rgb24 %dx%d@%d to %s":       "rgb24 %dx%d@%d を %s に書き込みます",
		"Writing rgb24 %dx%d@%d to stdout":   "rgb24 %dx%d@%d を標準出力に書き込みます",
		"Write to %s failed: %s":             "%s への書き込みに失敗しました: %s",

		// Relay
		"Relay listening on %s://%s":                              "リレーを %s://%s で待ち受け中",
		"New WebSocket client connected: %s (%s)":                 "WebSocketクライアントが接続しました: %s (%s)",
		"WebSocket client disconnected: %s":                       "WebSocketクライアントが切断しました: %s",
		"WebSocket upgrade failed: %s":                            "WebSocketへのアップグレードに失敗しました: %s",
		"WebSocket error from %s: %s":                             "%s でWebSocketエラー: %s",
		"Dropping message for slow client %s":                     "低速なクライアント %s へのメッセージを破棄します",
		"Using a self-signed certificate, SHA-256 fingerprint %s": "自己署名証明書を使用します (SHA-256 フィンガープリント %s)",
	})
}
