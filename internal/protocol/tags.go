package protocol

// Incoming tags.
const (
	TagConnected         = "MAKE_Connected_name"
	TagOpenWindow        = "MAKE_WindowOpenDisplay_name"
	TagCloseWindow       = "WINDOW_CLOSE"
	TagCreateChildWindow = "MAKE_create_child_window_display_name"
	TagCloseChildWindow  = "MAKE_close_child_window_display_name"
	TagWindowList        = "MAKE_window_list_name"
	TagWindowSetSize     = "window-set-size"
	TagDrawPixel         = "MAKE_DrawPixel_name"
	TagDrawRect          = "MAKE_DrawRect_name"
	TagDrawImage         = "MAKE_DrawImage_name"
	TagGroup             = "group-message"
)

// Outgoing tags.
const (
	TagScreenStart       = "MAKE_ScreenStart_name"
	TagMouseDown         = "MAKE_MouseDown_name"
	TagMouseUp           = "MAKE_MouseUp_name"
	TagKeyboardDown      = "MAKE_KeyboardDown_name"
	TagSetFocusedWindow  = "MAKE_SetFocusedWindow_name"
	TagWindowSetPosition = "MAKE_WindowSetPosition_name"
	TagRefreshWindow     = "MAKE_window_refresh_request_name"
)

// Window types with known chrome.
const (
	WindowPlain   = "PLAIN"
	WindowMenuBar = "MENUBAR"
	WindowDock    = "DOCK"
	WindowSidebar = "SIDEBAR"
	WindowChild   = "CHILD"
)
