// Package live serves the counter app over HTTP and websockets.
//
// One counter store is shared by every client. GET / renders the app on the
// server, POST /increment, /decrement and /reset dispatch actions, and each
// websocket connection on /ws mounts the app in its own server.Session and
// receives the HTML of every commit as a text message. Closing the
// connection unmounts the session, which releases its store subscriptions.
//
//	srv, err := live.NewServer(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	http.ListenAndServe(cfg.Address(), srv)
package live
